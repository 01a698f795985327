package test

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v2"
)

var testDriverLogger = log.With().Str("logger_name", "test::testdriver").Logger()

type ScriptTestResult struct {
	Filename string
	Failures []error
	Disabled bool
}

func (s *ScriptTestResult) addError(e error) {
	s.Failures = append(s.Failures, e)
}

// TestDriver runs game scripts and collects the results.
type TestDriver struct {
	ScriptResult map[string]*ScriptTestResult
	ScriptFiles  []string
}

func NewTestDriver() *TestDriver {
	return &TestDriver{ScriptResult: make(map[string]*ScriptTestResult), ScriptFiles: make([]string, 0)}
}

func (t *TestDriver) RunGameScript(filename string) error {
	result := &ScriptTestResult{Filename: filename, Failures: make([]error, 0)}
	t.ScriptResult[filename] = result
	t.ScriptFiles = append(t.ScriptFiles, filename)

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		result.addError(err)
		return err
	}

	var gameScript GameScript
	err = yaml.Unmarshal(data, &gameScript)
	if err != nil {
		testDriverLogger.Error().Msgf("Loading yaml failed: %s, err: %v", filename, err)
		result.addError(err)
		return err
	}
	if gameScript.Disabled {
		result.Disabled = true
		return nil
	}

	gameScript.filename = filename
	gameScript.result = result
	testDriverLogger.Info().Msgf("Running script %s", filename)
	return gameScript.run()
}

func (t *TestDriver) ReportResult() bool {
	passed := true
	for _, scriptFile := range t.ScriptFiles {
		result := t.ScriptResult[scriptFile]
		if result.Disabled {
			fmt.Printf("Script %s is disabled\n", result.Filename)
			continue
		}

		if len(result.Failures) != 0 {
			passed = false
			fmt.Printf("Script %s failed\n", scriptFile)
			fmt.Printf("===========================\n")
			for _, e := range result.Failures {
				fmt.Printf("%s\n", e.Error())
			}
			fmt.Printf("===========================\n")
		}
	}
	return passed
}

// RunGameScriptTests runs a single script file or every yaml file in a
// directory. testName restricts a directory run to one script.
func RunGameScriptTests(fileOrDir string, testName string) error {
	files, err := scriptFiles(fileOrDir, testName)
	if err != nil {
		return err
	}

	testDriver := NewTestDriver()
	for _, file := range files {
		testDriver.RunGameScript(file)
	}

	if !testDriver.ReportResult() {
		return fmt.Errorf("One or more scripts failed")
	}
	fmt.Printf("All scripts passed\n")
	return nil
}

func scriptFiles(fileOrDir string, testName string) ([]string, error) {
	if strings.HasSuffix(fileOrDir, ".yaml") {
		return []string{fileOrDir}, nil
	}
	entries, err := ioutil.ReadDir(fileOrDir)
	if err != nil {
		return nil, fmt.Errorf("Failed to get files from dir: %s", fileOrDir)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		if testName != "" && strings.TrimSuffix(entry.Name(), ".yaml") != testName {
			continue
		}
		files = append(files, filepath.Join(fileOrDir, entry.Name()))
	}
	return files, nil
}
