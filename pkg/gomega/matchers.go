package gomega

import (
	"errors"
	"fmt"

	g "github.com/onsi/gomega"
	gformat "github.com/onsi/gomega/format"
	gtypes "github.com/onsi/gomega/types"

	"github.com/meln5674/lineecho"
)

// HookErrorMatcher is the matcher returned by MatchHookError
type HookErrorMatcher struct {
	Expected error
}

// MatchHookError succeeds if the actual error matches the expected error,
// or is a HookError and errors.Is matches the expected error with any of the errors in it recursively
func MatchHookError(expected error) gtypes.GomegaMatcher {
	return &HookErrorMatcher{Expected: expected}
}

func (m *HookErrorMatcher) Match(actual interface{}) (success bool, err error) {
	check := g.HaveOccurred()
	success, err = check.Match(actual)
	if !success || err != nil {
		return
	}
	check = g.MatchError(m.Expected)
	success, err = check.Match(actual)
	if err != nil {
		return
	}
	if success {
		return
	}
	hookErr := new(lineecho.HookError)
	if !errors.As(actual.(error), &hookErr) {
		return false, nil
	}
	for _, subActual := range hookErr.Errors {
		success, err = m.Match(subActual)
		if success {
			return true, nil
		}
		if err != nil {
			return
		}
	}
	return false, nil
}

func (m *HookErrorMatcher) FailureMessage(actual interface{}) (message string) {
	check := g.HaveOccurred()
	success, _ := check.Match(actual)
	if !success {
		return check.FailureMessage(actual)
	}
	return fmt.Sprintf(
		"Expected\n%sto be somewhere within the tree of\n%s",
		gformat.Object(m.Expected, 1),
		gformat.Object(actual, 1),
	)
}

func (m *HookErrorMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf(
		"Expected\n%sto be nowhere within the tree of\n%s",
		gformat.Object(m.Expected, 1),
		gformat.Object(actual, 1),
	)
}

// ExitCodeMatcher is the matcher returned by HaveExitCode
type ExitCodeMatcher struct {
	Expected int
}

// HaveExitCode succeeds if the actual value, which must be nil or an error, maps to the expected process exit status
func HaveExitCode(code int) gtypes.GomegaMatcher {
	return &ExitCodeMatcher{Expected: code}
}

func exitCodeOf(actual interface{}) (int, error) {
	if actual == nil {
		return lineecho.ExitCode(nil), nil
	}
	err, ok := actual.(error)
	if !ok {
		return 0, fmt.Errorf("HaveExitCode expects nil or an error. Got:\n%s", gformat.Object(actual, 1))
	}
	return lineecho.ExitCode(err), nil
}

func (m *ExitCodeMatcher) Match(actual interface{}) (success bool, err error) {
	code, err := exitCodeOf(actual)
	if err != nil {
		return false, err
	}
	return code == m.Expected, nil
}

func (m *ExitCodeMatcher) FailureMessage(actual interface{}) (message string) {
	code, _ := exitCodeOf(actual)
	return fmt.Sprintf(
		"Expected\n%sto exit with status %d, but it maps to %d",
		gformat.Object(actual, 1),
		m.Expected,
		code,
	)
}

func (m *ExitCodeMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf(
		"Expected\n%snot to exit with status %d",
		gformat.Object(actual, 1),
		m.Expected,
	)
}

// ReadFailureMatcher is the matcher returned by MatchReadFailure
type ReadFailureMatcher struct {
	Cause error
}

// MatchReadFailure succeeds if the actual error is or wraps a ReadFailure whose stream error matches cause.
// A nil cause matches any ReadFailure.
func MatchReadFailure(cause error) gtypes.GomegaMatcher {
	return &ReadFailureMatcher{Cause: cause}
}

func (m *ReadFailureMatcher) Match(actual interface{}) (success bool, err error) {
	actualErr, ok := actual.(error)
	if !ok {
		return false, fmt.Errorf("MatchReadFailure expects an error. Got:\n%s", gformat.Object(actual, 1))
	}
	failure := new(lineecho.ReadFailure)
	if !errors.As(actualErr, &failure) {
		return false, nil
	}
	if m.Cause == nil {
		return true, nil
	}
	return errors.Is(failure.Err, m.Cause), nil
}

func (m *ReadFailureMatcher) FailureMessage(actual interface{}) (message string) {
	if m.Cause == nil {
		return fmt.Sprintf("Expected\n%sto be a read failure", gformat.Object(actual, 1))
	}
	return fmt.Sprintf(
		"Expected\n%sto be a read failure caused by\n%s",
		gformat.Object(actual, 1),
		gformat.Object(m.Cause, 1),
	)
}

func (m *ReadFailureMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	if m.Cause == nil {
		return fmt.Sprintf("Expected\n%snot to be a read failure", gformat.Object(actual, 1))
	}
	return fmt.Sprintf(
		"Expected\n%snot to be a read failure caused by\n%s",
		gformat.Object(actual, 1),
		gformat.Object(m.Cause, 1),
	)
}
