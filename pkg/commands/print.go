package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

func colorOutput() io.Writer {
	return color.Output
}

func printJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
