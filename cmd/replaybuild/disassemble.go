// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/google/gapid-sub000/gapis/replay/asm"
	"github.com/spf13/cobra"
)

func newDisassembleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disassemble <stream.bin>",
		Short: "Print the instructions of a recorded stream",
		Long: `The disassemble command decodes an instruction stream record by record.
A truncated trailing record is reported as a warning and ignored.

Example:
  replaybuild disassemble stream.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			instructions, err := asm.ReadAll(cmd.Context(), f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, inst := range instructions {
				fmt.Fprintf(w, "%.4d: %v %+v\n", i, inst.Tag(), inst)
			}
			return nil
		},
	}
}
