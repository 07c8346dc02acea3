package main

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCommand(test *testing.T) {
	cases := []struct {
		line     string
		expected command
		err      bool
	}{
		{"hello", command{kind: cmdText, text: "hello"}, false},
		{"//file is a command", command{kind: cmdText, text: "/file is a command"}, false},
		{"/file report.pdf", command{kind: cmdFile, args: []string{"report.pdf"}}, false},
		{"/file my report.pdf", command{kind: cmdFile, args: []string{"my report.pdf"}}, false},
		{"/file", command{}, true},
		{"/save report.pdf", command{kind: cmdSave, args: []string{"report.pdf", "report.pdf"}}, false},
		{"/save ../x.txt", command{kind: cmdSave, args: []string{"../x.txt", "x.txt"}}, false},
		{"/save a.txt /tmp/b.txt", command{kind: cmdSave, args: []string{"a.txt", "/tmp/b.txt"}}, false},
		{"/save", command{}, true},
		{"/save a b c", command{}, true},
		{"/files", command{kind: cmdFiles}, false},
		{"/quit", command{kind: cmdQuit}, false},
		{"/exit", command{kind: cmdQuit}, false},
		{"/help", command{kind: cmdHelp}, false},
		{"/unknown", command{}, true},
	}
	for _, c := range cases {
		actual, err := parseCommand(c.line)
		if c.err {
			if err == nil {
				test.Errorf("%q: expected error, got %+v", c.line, actual)
			}
			continue
		}
		if err != nil {
			test.Errorf("%q: unexpected error %v", c.line, err)
			continue
		}
		if !reflect.DeepEqual(actual, c.expected) {
			test.Errorf("%q: expected %+v, actual %+v", c.line, c.expected, actual)
		}
	}
	if _, err := parseCommand("/file"); !errors.Is(err, errUsage) {
		test.Error("Expected error:", errUsage, "got:", err)
	}
}
