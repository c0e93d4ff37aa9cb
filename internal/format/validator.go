package format

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrInvalidFormat reports that a file reference failed format validation.
	ErrInvalidFormat = errors.New("format: file format not accepted")
	// ErrFileRefRequired indicates the content entity carries no file reference.
	ErrFileRefRequired = errors.New("format: file reference is required")
)

// InvalidFormatError carries the detected media type alongside the rejection.
type InvalidFormatError struct {
	FileRef  string
	Detected string
}

func (e *InvalidFormatError) Error() string {
	if e == nil {
		return ErrInvalidFormat.Error()
	}
	detected := strings.TrimSpace(e.Detected)
	if detected != "" {
		return fmt.Sprintf("%s: detected %s", ErrInvalidFormat.Error(), detected)
	}
	return ErrInvalidFormat.Error()
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// Validator checks whether a content file reference satisfies format
// constraints. Implementations must be deterministic and side-effect free.
type Validator interface {
	// Validate returns the detected media type when the reference is accepted,
	// or an error unwrapping ErrInvalidFormat when it is not.
	Validate(ctx context.Context, fileRef string) (string, error)
}

// ValidatorFunc adapts a plain function into a Validator.
type ValidatorFunc func(ctx context.Context, fileRef string) (string, error)

// Validate satisfies Validator.
func (fn ValidatorFunc) Validate(ctx context.Context, fileRef string) (string, error) {
	return fn(ctx, fileRef)
}

// Option customises the sniffing validator.
type Option func(*sniffValidator)

// WithReadLimit bounds how many leading bytes are considered when sniffing.
func WithReadLimit(limit uint32) Option {
	return func(v *sniffValidator) {
		if limit > 0 {
			v.readLimit = limit
		}
	}
}

const defaultReadLimit = 3072

type sniffValidator struct {
	accepted  []string
	readLimit uint32
}

// NewValidator builds a validator that sniffs the file's media type and
// matches it against the accepted set. Accepted entries are MIME types
// (e.g. "image/png") or families with a trailing wildcard (e.g. "image/*").
func NewValidator(accepted []string, opts ...Option) Validator {
	v := &sniffValidator{
		accepted:  normalizeAccepted(accepted),
		readLimit: defaultReadLimit,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *sniffValidator) Validate(ctx context.Context, fileRef string) (string, error) {
	fileRef = strings.TrimSpace(fileRef)
	if fileRef == "" {
		return "", ErrFileRefRequired
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(fileRef)
	if err != nil {
		return "", fmt.Errorf("format: open %s: %w", fileRef, err)
	}
	defer file.Close()

	// Sniff from a bounded prefix read per instance; mimetype.SetLimit would
	// mutate package state shared by every validator.
	prefix := make([]byte, v.readLimit)
	n, err := io.ReadFull(file, prefix)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("format: read %s: %w", fileRef, err)
	}
	detected := mimetype.Detect(prefix[:n])

	media := detected.String()
	if v.matches(detected) {
		return media, nil
	}
	return "", &InvalidFormatError{FileRef: fileRef, Detected: media}
}

func (v *sniffValidator) matches(detected *mimetype.MIME) bool {
	if len(v.accepted) == 0 {
		return false
	}
	for _, accepted := range v.accepted {
		if family, ok := strings.CutSuffix(accepted, "/*"); ok {
			if strings.HasPrefix(detected.String(), family+"/") {
				return true
			}
			continue
		}
		if detected.Is(accepted) {
			return true
		}
	}
	return false
}

func normalizeAccepted(accepted []string) []string {
	out := make([]string, 0, len(accepted))
	for _, entry := range accepted {
		trimmed := strings.ToLower(strings.TrimSpace(entry))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// AcceptAll returns a validator that approves every non-empty file reference.
// Used when format validation is disabled by configuration.
func AcceptAll() Validator {
	return ValidatorFunc(func(_ context.Context, fileRef string) (string, error) {
		if strings.TrimSpace(fileRef) == "" {
			return "", ErrFileRefRequired
		}
		return "", nil
	})
}
