package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// List prints every shader in the workspace along with the paths it includes
// and the variables its directives reference.
type List struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format" short:"F"`
}

// shaderInfo is one row of list output.
type shaderInfo struct {
	Path       string   `json:"path"                 yaml:"path"`
	Includes   []string `json:"includes,omitempty"   yaml:"includes,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := workspace(ctx)
	if err != nil {
		return err
	}

	paths := ws.Paths()

	info := make([]shaderInfo, 0, len(paths))

	for _, path := range paths {
		shader, _ := ws.Shader(path)
		info = append(info, shaderInfo{
			Path:       path,
			Includes:   shader.Includes(),
			References: shader.References(),
		})
	}

	switch l.Format {
	case "json":
		buf, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		fmt.Println(string(buf))

	case "yaml":
		buf, err := yaml.MarshalContext(ctx, info)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		fmt.Print(string(buf))

	default:
		for _, item := range info {
			fmt.Println(item.Path)

			if len(item.Includes) > 0 {
				fmt.Printf("  includes:   %s\n", strings.Join(item.Includes, " "))
			}

			if len(item.References) > 0 {
				fmt.Printf("  references: %s\n", strings.Join(item.References, " "))
			}
		}
	}

	return nil
}
