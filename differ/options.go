package differ

import (
	"fmt"

	"github.com/truespec/truespec/specdoc"
	"github.com/truespec/truespec/tserrors"
)

// Option is a function that configures a diff operation
type Option func(*diffConfig) error

// diffConfig holds configuration for a diff operation
type diffConfig struct {
	// Input sources (exactly one base and one head must be set)
	baseDoc   specdoc.Doc
	baseBytes []byte
	headDoc   specdoc.Doc
	headBytes []byte

	baseSet int
	headSet int
}

// DiffWithOptions compares two OpenAPI documents using functional options,
// combining input loading and comparison in a single call.
//
// Example:
//
//	rep, err := differ.DiffWithOptions(
//	    differ.WithBaseBytes(baseYAML),
//	    differ.WithHeadBytes(headYAML),
//	)
func DiffWithOptions(opts ...Option) (*Report, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	base := cfg.baseDoc
	if cfg.baseBytes != nil {
		base, err = specdoc.Load(cfg.baseBytes)
		if err != nil {
			return nil, fmt.Errorf("loading base: %w", err)
		}
	}
	if base == nil {
		return nil, fmt.Errorf("differ: base: %w", tserrors.ErrInputInvalid)
	}

	head := cfg.headDoc
	if cfg.headBytes != nil {
		head, err = specdoc.Load(cfg.headBytes)
		if err != nil {
			return nil, fmt.Errorf("loading head: %w", err)
		}
	}
	if head == nil {
		return nil, fmt.Errorf("differ: head: %w", tserrors.ErrInputInvalid)
	}

	return Diff(base, head)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*diffConfig, error) {
	cfg := &diffConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.baseSet == 0 {
		return nil, fmt.Errorf("must specify a base (use WithBase or WithBaseBytes)")
	}
	if cfg.baseSet > 1 {
		return nil, fmt.Errorf("must specify exactly one base")
	}
	if cfg.headSet == 0 {
		return nil, fmt.Errorf("must specify a head (use WithHead or WithHeadBytes)")
	}
	if cfg.headSet > 1 {
		return nil, fmt.Errorf("must specify exactly one head")
	}

	return cfg, nil
}

// WithBase specifies an already-loaded document as the base
func WithBase(doc specdoc.Doc) Option {
	return func(cfg *diffConfig) error {
		cfg.baseDoc = doc
		cfg.baseSet++
		return nil
	}
}

// WithBaseBytes specifies raw JSON or YAML content as the base
func WithBaseBytes(data []byte) Option {
	return func(cfg *diffConfig) error {
		cfg.baseBytes = data
		cfg.baseSet++
		return nil
	}
}

// WithHead specifies an already-loaded document as the head revision
func WithHead(doc specdoc.Doc) Option {
	return func(cfg *diffConfig) error {
		cfg.headDoc = doc
		cfg.headSet++
		return nil
	}
}

// WithHeadBytes specifies raw JSON or YAML content as the head revision
func WithHeadBytes(data []byte) Option {
	return func(cfg *diffConfig) error {
		cfg.headBytes = data
		cfg.headSet++
		return nil
	}
}
