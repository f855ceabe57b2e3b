// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/dpzip/dpzip/internal/issue"
	"github.com/dpzip/dpzip/pkg/archive"
	"github.com/dpzip/dpzip/pkg/datapack"
	"github.com/dpzip/dpzip/pkg/types"

	"github.com/charmbracelet/log"
)

func TestClassifyBuildError(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("failed to build datapack archive: %w",
		&archive.SourceNotFoundError{Path: "/src/pack.mcmeta", Err: os.ErrNotExist})

	tests := []struct {
		name      string
		err       error
		wantIssue issue.Id
		wantCode  types.ExitCode
		wantMsg   string
	}{
		{
			name:      "missing source",
			err:       &datapack.MissingInputError{Field: datapack.FieldSourceDir},
			wantIssue: issue.SourceFolderNotSetId,
			wantCode:  types.ExitMissingInput,
			wantMsg:   "no datapack folder chosen",
		},
		{
			name:      "missing export",
			err:       &datapack.MissingInputError{Field: datapack.FieldExportDir},
			wantIssue: issue.ExportFolderNotSetId,
			wantCode:  types.ExitMissingInput,
			wantMsg:   "no export folder chosen",
		},
		{
			name:      "missing name",
			err:       &datapack.MissingInputError{Field: datapack.FieldName},
			wantIssue: issue.DatapackNameNotSetId,
			wantCode:  types.ExitMissingInput,
			wantMsg:   "no datapack name chosen",
		},
		{
			name:      "invalid name",
			err:       &datapack.InvalidNameError{Name: "a/b"},
			wantIssue: issue.InvalidDatapackNameId,
			wantCode:  types.ExitFailure,
			wantMsg:   `"a/b"`,
		},
		{
			name:      "missing pack file",
			err:       notFound,
			wantIssue: issue.PackFileNotFoundId,
			wantCode:  types.ExitFailure,
			wantMsg:   "/src/pack.mcmeta",
		},
		{
			name:     "other failure",
			err:      errors.New("disk full"),
			wantCode: types.ExitFailure,
			wantMsg:  "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svcErr := classifyBuildError(tt.err, false)
			if svcErr.IssueID != tt.wantIssue {
				t.Errorf("IssueID = %d, want %d", svcErr.IssueID, tt.wantIssue)
			}
			if svcErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", svcErr.Code, tt.wantCode)
			}
			if !strings.Contains(svcErr.StyledMessage, tt.wantMsg) {
				t.Errorf("StyledMessage = %q, want it to contain %q", svcErr.StyledMessage, tt.wantMsg)
			}
			if !errors.Is(svcErr, tt.err) && !errors.Is(svcErr, archive.ErrSourceNotFound) {
				t.Errorf("classified error should keep the original chain")
			}
		})
	}
}

func TestNewServiceError_PanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil error")
		}
	}()
	_ = newServiceError(nil, 0, "", types.ExitFailure)
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	svcErr := newServiceError(errors.New("x"), issue.DatapackNameNotSetId, "Error: x\n", types.ExitMissingInput)
	renderServiceError(&buf, svcErr, "notty", log.New(io.Discard))

	out := buf.String()
	if !strings.Contains(out, "No datapack name chosen") {
		t.Errorf("issue page missing from output:\n%s", out)
	}
	if !strings.HasSuffix(out, "Error: x\n") {
		t.Errorf("styled message should come last:\n%s", out)
	}

	buf.Reset()
	renderServiceError(&buf, nil, "notty", log.New(io.Discard))
	if buf.Len() != 0 {
		t.Error("nil ServiceError should render nothing")
	}
}
