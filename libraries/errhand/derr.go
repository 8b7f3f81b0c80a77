// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errhand

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
)

// VerboseError is an error with a long form for --verbose output.
type VerboseError interface {
	error
	Verbose() string
}

type DErrorBuilder struct {
	dispMsg string
	details string
	cause   error
}

func BuildDError(dispFmt string, args ...interface{}) *DErrorBuilder {
	dispMsg := dispFmt

	if len(args) > 0 {
		dispMsg = fmt.Sprintf(dispFmt, args...)
	}

	return &DErrorBuilder{dispMsg, "", nil}
}

// BuildIf returns nil when |err| is nil, so a chain of builder calls ending in Build yields a nil VerboseError.
func BuildIf(err error, dispFmt string, args ...interface{}) *DErrorBuilder {
	if err == nil {
		return nil
	}

	return BuildDError(dispFmt, args...).AddCause(err)
}

func (builder *DErrorBuilder) AddDetails(detailsFmt string, args ...interface{}) *DErrorBuilder {
	if builder == nil {
		return nil
	}

	details := detailsFmt
	if len(args) > 0 {
		details = fmt.Sprintf(detailsFmt, args...)
	}

	if len(builder.details) > 0 {
		builder.details += "\n"
	}

	builder.details += details

	return builder
}

func (builder *DErrorBuilder) AddCause(cause error) *DErrorBuilder {
	if builder == nil {
		return nil
	}

	builder.cause = cause
	return builder
}

func (builder *DErrorBuilder) Build() VerboseError {
	if builder == nil {
		return nil
	}

	return &DError{builder.dispMsg, builder.details, builder.cause}
}

// DError is an error with a short display message, optional details, and a cause.
type DError struct {
	DisplayMsg string
	Details    string
	cause      error
}

func (derr *DError) Error() string {
	return color.RedString(derr.DisplayMsg)
}

func (derr *DError) Unwrap() error {
	return derr.cause
}

func (derr *DError) Verbose() string {
	sections := make([]string, 0, 4)
	sections = append(sections, derr.Error())

	if derr.Details != "" {
		sections = append(sections, derr.Details)
	}

	if derr.cause != nil {
		sections = append(sections, "cause:")

		var causeStr string
		if vCause, ok := derr.cause.(VerboseError); ok {
			causeStr = vCause.Verbose()
		} else {
			causeStr = derr.cause.Error()
		}

		sections = append(sections, indent(causeStr, "\t\t"))
	}

	return strings.Join(sections, "\n")
}

// FromBadRow describes a row rejected while reading |source|. |offset| is the stream offset of the buffer the
// row's span is relative to.
func FromBadRow(source string, offset int64, br *table.BadRow) VerboseError {
	start := offset + int64(br.Start)
	bld := BuildDError("bad row in %s at bytes [%d, %d)", source, start, start+int64(br.Len))
	if br.Cause != nil {
		bld.AddDetails("%s", br.Cause.Error())
	}
	for _, d := range br.Details {
		bld.AddDetails("%s", d)
	}
	if table.IsFatal(br) {
		bld.AddDetails("the rest of the input can't be read")
	}
	return bld.Build()
}

func indent(str, indentStr string) string {
	lines := strings.Split(str, "\n")
	return indentStr + strings.Join(lines, "\n"+indentStr)
}
