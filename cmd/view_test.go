package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"conform.dev/pkg/conform/internal/domain"
)

func TestViewCmd_AllSuites(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return len(args.Suites) == 0 && !args.Detail
	})).Return(nil).Once()

	cmd.SetArgs([]string{"view"})
	require.NoError(t, cmd.Execute())
}

func TestViewCmd_NamedSuitesWithDetail(t *testing.T) {
	cmd, mockWorkflow := newTestRootCmd(t, newViewCmd())

	mockWorkflow.On("View", mock.Anything, domain.ViewArgs{
		Suites: []string{"parser_test262"},
		Detail: true,
	}).Return(nil).Once()

	cmd.SetArgs([]string{"view", "parser_test262", "--detail"})
	require.NoError(t, cmd.Execute())
}
