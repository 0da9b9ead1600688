// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/consensys/go-smt/pkg/smt2"
	"github.com/consensys/go-smt/pkg/solver"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var solveCmd = &cobra.Command{
	Use:   "solve [flags] [script_file]",
	Short: "solve an SMT-LIB v2 script.",
	Long: `Execute a given SMT-LIB v2 script, printing the result of each check-sat
	 (and any other result-producing command).  When no script file is given, the
	 script is read from stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			timeout = GetUint(cmd, "timeout")
			budget  = GetUint64(cmd, "budget")
			script  = readScript(args)
			ctx     = solver.NewContext(solveOptions(cmd))
		)
		//
		ctx.SetProcedure(solver.NewEnumerator(budget))
		// Arm the termination gate when a timeout was requested.
		if timeout != 0 {
			go func() {
				time.Sleep(time.Duration(timeout) * time.Millisecond)
				ctx.Terminator().Terminate()
			}()
		}
		//
		reader := smt2.NewReader(ctx)
		//
		outputs, err := reader.Run(script)
		//
		for _, output := range outputs {
			fmt.Println(output)
		}
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		checkStatus(reader, outputs)
	},
}

// solveOptions translates command-line flags into context options.
func solveOptions(cmd *cobra.Command) solver.Options {
	options := solver.DefaultOptions()
	options.Models = solver.ModelsOff
	//
	if GetFlag(cmd, "model") {
		options.Models = solver.ModelsAll
	}
	//
	if GetFlag(cmd, "core") {
		options.TrackAssertions = true
		options.TrackAssumptions = true
	}
	//
	return options
}

// readScript loads the script from the given file, or from stdin when no file
// was named and stdin is not an interactive terminal.
func readScript(args []string) string {
	if len(args) >= 1 {
		bytes, err := os.ReadFile(args[0])
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		return string(bytes)
	}
	//
	if term.IsTerminal(0) {
		fmt.Println("expected script on stdin (or a script file argument)")
		os.Exit(2)
	}
	//
	bytes, err := io.ReadAll(os.Stdin)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return string(bytes)
}

// checkStatus compares the first check-sat result against any declared
// (set-info :status ...) expectation.
func checkStatus(reader *smt2.Reader, outputs []string) {
	expected := reader.ExpectedStatus()
	//
	if expected == "" || expected == "unknown" {
		return
	}
	//
	for _, output := range outputs {
		switch output {
		case "unknown":
			return
		case expected:
			return
		case "sat", "unsat":
			fmt.Printf("status mismatch: expected %s, got %s\n", expected, output)
			os.Exit(1)
		}
	}
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolP("model", "m", false, "enable model production")
	solveCmd.Flags().BoolP("core", "c", false, "enable unsat core tracking")
	solveCmd.Flags().Uint64P("budget", "b", solver.DefaultBudget, "set enumeration budget")
	solveCmd.Flags().UintP("timeout", "t", 0, "set solving timeout (ms)")
}
