package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestStyled_NonTerminal(t *testing.T) {
	assert.False(t, styled(new(bytes.Buffer)))
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name   string
		result func() *domain.BulkOperationResult
		want   []string
	}{
		{
			name: "committed with failure",
			result: func() *domain.BulkOperationResult {
				r := domain.NewBulkOperationResult()
				r.Success, r.Committed = true, true
				r.SuccessCount, r.TotalProcessed = 1, 1
				r.Created = append(r.Created, domain.ItemRef{ID: "a", Title: "Read"})
				r.AddFailure(domain.NewFailure(1, "", domain.ErrInvalidCategory))
				return r
			},
			want: []string{"committed: 2 processed, 1 succeeded, 1 failed", "created Read a", "x #1"},
		},
		{
			name: "rolled back",
			result: func() *domain.BulkOperationResult {
				r := domain.NewBulkOperationResult()
				r.RolledBack = true
				r.Warn("transaction rolled back: high failure rate (0 succeeded, 1 failed)")
				return r
			},
			want: []string{"rolled back", "! transaction rolled back"},
		},
		{
			name: "refused",
			result: func() *domain.BulkOperationResult {
				r := domain.NewBulkOperationResult()
				r.Refuse(domain.ErrEmptyScope)
				return r
			},
			want: []string{"refused (EmptyScope)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := &cobra.Command{}
			cmd.SetOut(buf)

			require.NoError(t, printResult(cmd, tt.result()))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
