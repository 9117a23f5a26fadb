// Copyright 2026 The Ticketdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
)

// Stdout receives command output. Tests replace it to capture what a
// command prints.
var Stdout io.Writer = os.Stdout

// JSONOutput is an embeddable struct that adds --json output support
// to a command's params struct.
//
//	type listParams struct {
//	    cli.JSONOutput
//	    Status string `flag:"status" desc:"filter by status"`
//	}
//
//	// In Run:
//	if done, err := params.EmitJSON(page); done {
//	    return err
//	}
//	// ... text formatting ...
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result as indented JSON to [Stdout] if --json is
// set. Returns (true, nil) on success, (true, err) on write failure,
// or (false, nil) when --json is not set and the caller should proceed
// with text formatting. Nil slices are written as [].
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(normalizeNilSlice(result))
}

// WriteJSON marshals value as indented JSON and writes it to [Stdout].
func WriteJSON(value any) error {
	encoder := json.NewEncoder(Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
