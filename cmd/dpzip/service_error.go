// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/pkg/archive"
	"github.com/dpzip/dpzip/pkg/datapack"
	"github.com/dpzip/dpzip/pkg/platform"
	"github.com/dpzip/dpzip/pkg/types"

	"github.com/charmbracelet/log"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError to enforce the
// Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
	// Code is the process exit code for this failure.
	Code types.ExitCode
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string, code types.ExitCode) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
		Code:          code,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyBuildError maps packaging failures to issue catalog IDs and exit
// codes, and returns the styled message for CLI rendering.
func classifyBuildError(err error, verbose bool) *ServiceError {
	var (
		issueID issue.Id
		code    = types.ExitFailure
		missing *datapack.MissingInputError
	)

	switch {
	case errors.As(err, &missing):
		code = types.ExitMissingInput
		switch missing.Field {
		case datapack.FieldSourceDir:
			issueID = issue.SourceFolderNotSetId
		case datapack.FieldExportDir:
			issueID = issue.ExportFolderNotSetId
		case datapack.FieldName:
			issueID = issue.DatapackNameNotSetId
		}
	case errors.Is(err, datapack.ErrInvalidName):
		issueID = issue.InvalidDatapackNameId
	case errors.Is(err, archive.ErrSourceNotFound):
		issueID = issue.PackFileNotFoundId
		err = issue.NewErrorContext().
			WithOperation("zip pack").
			WithSuggestion(platform.FilesystemHintFor(platform.DetectSandbox())).
			WithIssue(issueID).
			Wrap(err).
			BuildError()
	}

	return newServiceError(err, issueID,
		fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose)), code)
}

// renderServiceError renders a ServiceError in the CLI layer: the optional
// issue page first, then the styled message.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string, logger *log.Logger) {
	if svcErr == nil {
		return
	}

	if svcErr.IssueID != 0 {
		if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
			rendered, renderErr := catalogEntry.Render(style)
			if renderErr != nil {
				logger.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			} else {
				fmt.Fprint(stderr, rendered)
			}
		}
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}
}
