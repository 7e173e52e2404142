package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Variant
	}{
		{name: "nothing", opts: Options{}, want: VariantNone},
		{name: "hack0", opts: Options{Hack0: true}, want: VariantDirect},
		{name: "hack1", opts: Options{Hack1: true}, want: VariantPlus166},
		{name: "hack2", opts: Options{Hack2: true}, want: VariantPlus150},
		{name: "hack3 enables both deltas", opts: Options{Hack3: true}, want: VariantPlus166 | VariantPlus150},
		{name: "hack3 is additive", opts: Options{Hack1: true, Hack3: true}, want: VariantPlus166 | VariantPlus150},
		{name: "unprotect", opts: Options{Unprotect: true}, want: VariantUnprotect},
		{
			name: "everything",
			opts: Options{Hack0: true, Hack3: true, Unprotect: true},
			want: VariantDirect | VariantPlus166 | VariantPlus150 | VariantUnprotect,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Config().Variants)
		})
	}
}

func TestOptionsConfigCarriesBasesAndWrite(t *testing.T) {
	opts := DefaultOptions()
	opts.Write = true
	cfg := opts.Config()

	assert.Equal(t, uint32(0xAFC8), cfg.BaseOld)
	assert.Equal(t, uint32(0x2DB6), cfg.BaseNew)
	assert.True(t, cfg.Commit)
}

func TestConfigValidate(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoOpConfiguration))

	wrapped := fmt.Errorf("patch ip.bin: %w", err)
	assert.ErrorIs(t, wrapped, ErrNoOpConfiguration)

	var typed *Error
	require.ErrorAs(t, wrapped, &typed)
	assert.Equal(t, ErrKindConfig, typed.Kind)

	assert.NoError(t, Config{Variants: VariantUnprotect}.Validate())
}

func TestConfigValidate_UnknownBits(t *testing.T) {
	tests := []struct {
		name     string
		variants Variant
		wantErr  bool
	}{
		{name: "unknown bit only", variants: Variant(0x10), wantErr: true},
		{name: "all unknown bits", variants: ^VariantAll, wantErr: true},
		{name: "unknown bit with direct", variants: Variant(0x10) | VariantDirect},
		{name: "all known", variants: VariantAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Variants: tt.variants}.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoOpConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "none", VariantNone.String())
	assert.Equal(t, "HACK0", VariantDirect.String())
	assert.Equal(t, "HACK1|HACK2", (VariantPlus166 | VariantPlus150).String())
	assert.Equal(t, "HACK0|UNPROTECT", (VariantUnprotect | VariantDirect).String())
	assert.Equal(t, "old position + 150", VariantPlus150.Describe())
}

func TestVariantHas(t *testing.T) {
	s := VariantDirect | VariantPlus150
	assert.True(t, s.Has(VariantDirect))
	assert.True(t, s.Has(VariantDirect|VariantPlus150))
	assert.False(t, s.Has(VariantPlus166))
	assert.False(t, s.Has(VariantNone))
}

func TestReportHelpers(t *testing.T) {
	r := &Report{Findings: []Finding{
		{Offset: 0, Variant: VariantDirect},
		{Offset: 8, Variant: VariantDirect},
		{Offset: 12, Variant: VariantUnprotect},
	}}
	assert.False(t, r.Applied())
	assert.Equal(t, 2, r.Count(VariantDirect))
	assert.Equal(t, 0, r.Count(VariantPlus166))

	r.Findings[2].Applied = true
	assert.True(t, r.Applied())
}
