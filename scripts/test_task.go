// Copyright 2025 Zintix Labs
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

package main

import (
	"bufio"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 決定一行輸出要不要印、用什麼顏色。
type lineFilter func(line string)

// runTest 對應 Makefile:
//
//	go clean -testcache && go test ./... -cover -count=1 | grep -E '^(ok|FAIL)'
func runTest() error {
	printGreen("running tests")
	// clean 失敗不一定要中斷
	_ = cleanCache()
	return stream(exec.Command("go", "test", "./...", "-cover", "-count=1"), func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			printGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			printRed(line)
		case strings.Contains(line, "build failed") || strings.Contains(line, "setup failed"):
			// 不然 grep 過濾太乾淨會看不出為什麼沒反應
			printRed(line)
		}
	})
}

// runTestAll 對應 Makefile:
//
//	go clean -testcache && go test -cover ./...
func runTestAll() error {
	printGreen("running tests (all with coverage)")
	if err := cleanCache(); err != nil {
		return err
	}
	return passthrough(exec.Command("go", "test", "./...", "-cover"))
}

// runTestDetail 對應 Makefile:
//
//	go clean -testcache
//	go test ./... -v -count=1 2>&1 | grep -v '\[no test files\]'
func runTestDetail() error {
	printGreen("running tests (detail)")
	if err := cleanCache(); err != nil {
		return err
	}
	return stream(exec.Command("go", "test", "./...", "-v", "-count=1"), func(line string) {
		if strings.Contains(line, "[no test files]") {
			return
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			printGreen(line)
		case strings.HasPrefix(line, "FAIL"):
			printRed(line)
		default:
			os.Stdout.WriteString(line + "\n")
		}
	})
}

func runAgreement() error {
	printGreen("running agreement (simulated vs closed form)")
	return passthrough(exec.Command("go", "run", "./cmd/run", "-runs", "256", "-worker", "4", "-seed", "42"))
}

func runAdvise() error {
	printGreen("running advise (demo dataset)")
	return passthrough(exec.Command("go", "run", "./cmd/run", "-advise", "-seed", "42"))
}

func cleanCache() error {
	return passthrough(exec.Command("go", "clean", "-testcache"))
}

func passthrough(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// stream 合併 stdout/stderr（等同 2>&1）後逐行交給 filter
func stream(cmd *exec.Cmd, filter lineFilter) error {
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		filter(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		printRed("scanner error: " + err.Error())
	}
	return cmd.Wait()
}
