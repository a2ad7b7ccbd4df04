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
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/opcode"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/spf13/cobra"
)

func newDumpCmd(opts *options) *cobra.Command {
	var values bool
	cmd := &cobra.Command{
		Use:   "dump <payload.bin>",
		Short: "Print a textual representation of a payload",
		Long: `The dump command prints the header, resources and opcodes of a payload.
Opcodes are read with the byte order of the configured architecture.

Example:
  replaybuild dump payload.bin
  replaybuild dump payload.bin --values`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			payload := protocol.Payload{}
			if err := payload.Unmarshal(data); err != nil {
				return err
			}
			return dumpPayload(cmd.OutOrStdout(), &payload, opts.cfg.MemoryLayout().Endian, values)
		},
	}
	cmd.Flags().BoolVar(&values, "values", false, "Also print the values assembled by the push opcodes")
	return cmd
}

func dumpPayload(w io.Writer, payload *protocol.Payload, byteOrder device.Endian, values bool) error {
	fmt.Fprintf(w, "Stack Size:           0x%x\n", payload.StackSize)
	fmt.Fprintf(w, "Volatile Memory Size: 0x%x\n", payload.VolatileMemorySize)
	fmt.Fprintf(w, "Constant Memory Size: 0x%x\n", len(payload.Constants))

	fmt.Fprintf(w, "Resources:\n")
	for i, r := range payload.Resources {
		fmt.Fprintf(w, "  %d: %v (0x%x bytes)\n", i, r.ID, r.Size)
	}

	ops, err := dumpOpcodes(w, payload.Opcodes, byteOrder)
	if err != nil {
		return err
	}
	if !values {
		return nil
	}
	pushed, err := opcode.Reconstruct(ops)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Pushed values:\n")
	for i, p := range pushed {
		fmt.Fprintf(w, "  %d: %v 0x%x\n", i, p.Type, p.Value)
	}
	return nil
}

func dumpOpcodes(w io.Writer, data []byte, byteOrder device.Endian) ([]opcode.Opcode, error) {
	count := len(data) / 4
	fmt.Fprintf(w, "Opcodes:\n")

	digits := 1
	if count > 0 {
		digits = int(math.Log10(float64(count))) + 1
	}
	f := fmt.Sprintf("%%.%dd: %%v\n", digits)
	r := endian.Reader(bytes.NewReader(data), byteOrder)
	ops := make([]opcode.Opcode, 0, count)
	for {
		op, err := opcode.Decode(r)
		switch err {
		case nil:
			fmt.Fprintf(w, f, len(ops), op)
			ops = append(ops, op)
		case io.EOF:
			return ops, nil
		default:
			return nil, err
		}
	}
}
