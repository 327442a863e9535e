package checkerr_test

import (
	"errors"
	"testing"

	"github.com/macrat/check-jenkins/internal/checkerr"
	"github.com/macrat/check-jenkins/internal/jenkins"
)

func TestError(t *testing.T) {
	tests := []struct {
		kind    error
		from    error
		format  string
		args    []interface{}
		message string
	}{
		{
			jenkins.ErrCommunicate,
			jenkins.ErrInvalidURL,
			"hello %s",
			[]interface{}{"world"},
			"hello world: invalid server URL",
		},
		{
			jenkins.ErrInvalidResponse,
			nil,
			"no cause here",
			nil,
			"no cause here",
		},
		{
			jenkins.ErrInvalidURL,
			errors.New("short"),
			"",
			nil,
			"short",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.message, func(t *testing.T) {
			err := checkerr.New(tt.kind, tt.from, tt.format, tt.args...)

			if err.Error() != tt.message {
				t.Errorf("unexpected message: %s", err)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error is %#v but reports as not", tt.kind)
			}

			if tt.from != nil && !errors.Is(err, tt.from) {
				t.Errorf("error is sub error of %#v but reports as not", tt.from)
			}
		})
	}
}
