package system

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CheckBashSyntax parses the given lines as one bash script.
func CheckBashSyntax(cmds []string) error {
	script := strings.NewReader(strings.Join(cmds, "\n"))
	_, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(script, "")

	return err
}
