package server

import (
	"fmt"

	"github.com/proxima-be/pxbench/rpc/common"
)

// Status codes of the search engine. The engine reports failures as negative
// numbers, the client side codes (10000 and up) never collide with them.
const (
	CodeInvalidArgument      common.ErrorCode = -1005
	CodeInvalidRecord        common.ErrorCode = -2009
	CodeInvalidQuery         common.ErrorCode = -2010
	CodeInvalidDataType      common.ErrorCode = -2015
	CodeMismatchedDimension  common.ErrorCode = -2023
	CodeDuplicateCollection  common.ErrorCode = -4000
	CodeInexistentCollection common.ErrorCode = -4002
	CodeInexistentColumn     common.ErrorCode = -4003
)

var codeDescriptions = map[common.ErrorCode]string{
	CodeInvalidArgument:      "Invalid Argument",
	CodeInvalidRecord:        "Invalid Record",
	CodeInvalidQuery:         "Invalid Query",
	CodeInvalidDataType:      "Invalid Data Type",
	CodeMismatchedDimension:  "Mismatched Dimension",
	CodeDuplicateCollection:  "Duplicate Collection",
	CodeInexistentCollection: "Collection Not Exist",
	CodeInexistentColumn:     "Column Not Exist",
}

// engineStatus creates a failure status. The reason is the description of
// the code, followed by the formatted detail if one is given.
func engineStatus(code common.ErrorCode, format string, args ...any) common.Status {
	reason := codeDescriptions[code]
	if format != "" {
		reason = fmt.Sprintf("%s: %s", reason, fmt.Sprintf(format, args...))
	}
	return common.NewStatusWithReason(code, reason)
}

// ok is the status of every successful call
func ok() common.Status {
	return common.NewStatus(common.Success)
}
