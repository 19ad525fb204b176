package minter

import (
	"encoding/json"
	"errors"
	"strings"

	"aria/internal/domain"
)

const unknownError = "Unknown error"

// ParseOutput interprets a finished mint invocation.
//
// A non-zero exit is an invocation failure whose detail is the "error" field of
// stdout JSON when stdout parses as an object, otherwise raw stderr (or stdout
// when stderr is empty). On a zero exit the last stdout line starting with "{"
// is the result; it must carry a non-empty string "txId" and no "error" key.
func ParseOutput(exitCode int, stdout, stderr string) (*domain.MintResult, error) {
	if exitCode != 0 {
		return nil, &domain.MintInvocationError{ExitCode: exitCode, Detail: failureDetail(stdout, stderr)}
	}

	line, ok := lastJSONLine(stdout)
	if !ok {
		return nil, &domain.MintOutputError{Output: stdout, Err: errors.New("no JSON output found in stdout")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return nil, &domain.MintOutputError{Output: stdout, Err: err}
	}

	if raw, ok := fields["error"]; ok {
		return nil, &domain.MintResultError{Detail: rawText(raw)}
	}

	// Only a JSON string counts; false, 0 and null are "no transaction".
	var txID string
	if raw, ok := fields["txId"]; ok {
		if err := json.Unmarshal(raw, &txID); err != nil {
			txID = ""
		}
	}
	if strings.TrimSpace(txID) == "" {
		return nil, &domain.MintResultError{Detail: "no transaction id produced"}
	}

	return &domain.MintResult{TxID: txID}, nil
}

func failureDetail(stdout, stderr string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &fields); err == nil && fields != nil {
		if raw, ok := fields["error"]; ok {
			return rawText(raw)
		}
		return unknownError
	}
	if stderr != "" {
		return stderr
	}
	return stdout
}

// lastJSONLine scans stdout from the end for a line whose trimmed text starts with "{".
func lastJSONLine(stdout string) (string, bool) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return line, true
		}
	}
	return "", false
}

// rawText renders a JSON value as plain text: strings unquoted, everything else verbatim.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
