package validation

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog maps message codes to templates. Templates reference arguments
// positionally as {0}, {1}, ...
type Catalog struct {
	messages map[string]string
	printer  *message.Printer
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultMessages)
}

// LoadCatalog reads a YAML catalog from path and layers it over the bundled
// messages.
func LoadCatalog(path string) (*Catalog, error) {
	base, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message catalog: %w", err)
	}
	override, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	for code, tmpl := range override.messages {
		base.messages[code] = tmpl
	}
	return base, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	return &Catalog{
		messages: messages,
		printer:  message.NewPrinter(language.English),
	}, nil
}

// Lookup returns the template for the first code present in the catalog.
func (c *Catalog) Lookup(codes []string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, code := range codes {
		if tmpl, ok := c.messages[code]; ok {
			return tmpl, true
		}
	}
	return "", false
}

// Message renders e using the most specific code the catalog knows, then the
// error's default message, then the bare code.
func (c *Catalog) Message(e Error) string {
	codes := e.Codes
	if len(codes) == 0 {
		codes = []string{e.Code}
	}
	if tmpl, ok := c.Lookup(codes); ok {
		return c.format(tmpl, e.Args)
	}
	if e.DefaultMessage != "" {
		return e.DefaultMessage
	}
	return e.Code
}

func (c *Catalog) format(tmpl string, args []any) string {
	if len(args) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", c.formatArg(arg))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (c *Catalog) formatArg(arg any) string {
	printer := c.printer
	if printer == nil {
		printer = message.NewPrinter(language.English)
	}
	switch v := arg.(type) {
	case int, int32, int64:
		return printer.Sprintf("%d", v)
	default:
		return fmt.Sprint(v)
	}
}
