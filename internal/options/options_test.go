package options

import "testing"

func TestDefault(t *testing.T) {
	opts := Default()
	if err := opts.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if opts.IncludeExcludedCurio {
		t.Fatalf("expected excluded curio to stay out of rotation by default")
	}
	if opts.StatVarianceFactor() != 1 {
		t.Fatalf("expected variance factor 1, got %v", opts.StatVarianceFactor())
	}
}

func TestValidate(t *testing.T) {
	for _, level := range []int{-1, MaxStatVariance + 1} {
		opts := Default()
		opts.HeroStatVariance = level
		if err := opts.Validate(); err == nil {
			t.Fatalf("expected error for level %d", level)
		}
	}
}
