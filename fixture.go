// FILE: lixenwraith/decouple/fixture.go
package decouple

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ReadEnvFile loads an environment fixture: a flat document mapping variable
// names to values, used as a deterministic Lookuper in tests and
// reproductions. It is not a configuration layer and nothing merges it with
// the process environment.
//
// The format comes from the extension (.toml, .yaml/.yml, .json, .env) or,
// failing that, from the content, where KEY=VALUE lines are tried first.
// Scalars keep their source text (TOML integers are written in decimal),
// arrays are joined with ListSeparator and nested tables are rejected with
// ErrFixtureFormat.
func ReadEnvFile(path string) (MapEnv, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}

	var vars MapEnv
	switch format {
	case "toml":
		vars, err = readTOMLFixture(data)
	case "json":
		vars, err = readJSONFixture(data)
	case "yaml":
		vars, err = readYAMLFixture(data)
	case "env":
		vars, err = parseDotEnv(data)
	default:
		return nil, fmt.Errorf("unable to determine format for env file '%s'", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s env file '%s': %w", format, path, err)
	}
	return vars, nil
}

// readTOMLFixture decodes a flat TOML document. Integers are written in
// decimal; floats, booleans and datetimes keep their source text.
func readTOMLFixture(data []byte) (MapEnv, error) {
	doc := make(map[string]any)
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	literals := tomlLiterals(data)
	vars := make(MapEnv, len(doc))
	for name, value := range doc {
		s, err := stringifyFixtureValue(name, value)
		if err != nil {
			return nil, err
		}
		if lit, ok := literals[name]; ok {
			s = tomlSourceText(value, lit, s)
		}
		vars[name] = s
	}
	return vars, nil
}

// tomlSourceText picks the source literal over the decoded rendering where
// decoding would have changed the text.
func tomlSourceText(value any, literal, decoded string) string {
	switch v := value.(type) {
	case float64, bool, time.Time:
		if strings.Contains(literal, "_") {
			return decoded
		}
		return literal
	case []any:
		parts := strings.Split(literal, ListSeparator)
		if len(parts) != len(v) {
			return decoded
		}
		for i, elem := range v {
			switch e := elem.(type) {
			case int64:
				parts[i] = strconv.FormatInt(e, 10)
			case string:
				return decoded
			default:
				if strings.Contains(parts[i], "_") {
					return decoded
				}
			}
		}
		return strings.Join(parts, ListSeparator)
	default:
		return decoded
	}
}

// tomlLiterals scans top-level "key = value" lines and returns the source text
// of values holding no quotes. Arrays on a single line are returned as their
// elements joined with ListSeparator. Scanning stops at the first table header.
func tomlLiterals(data []byte) map[string]string {
	out := make(map[string]string)
	inMultiline := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if n := strings.Count(line, `"""`) + strings.Count(line, "'''"); n%2 == 1 {
			inMultiline = !inMultiline
			continue
		}
		if inMultiline || line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			break
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.Trim(strings.TrimSpace(key), `"'`)
		if strings.ContainsAny(value, `"'{`) {
			continue
		}
		if i := strings.IndexByte(value, '#'); i >= 0 {
			value = value[:i]
		}
		value = strings.TrimSpace(value)

		if strings.HasPrefix(value, "[") {
			if !strings.HasSuffix(value, "]") || strings.Count(value, "[") != 1 {
				continue
			}
			elems := make([]string, 0)
			for _, elem := range strings.Split(value[1:len(value)-1], ",") {
				if elem = strings.TrimSpace(elem); elem != "" {
					elems = append(elems, elem)
				}
			}
			value = strings.Join(elems, ListSeparator)
		}
		out[key] = value
	}
	return out
}

// readJSONFixture decodes a flat JSON object. Numbers keep their source text.
func readJSONFixture(data []byte) (MapEnv, error) {
	doc := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	vars := make(MapEnv, len(doc))
	for name, value := range doc {
		s, err := stringifyFixtureValue(name, value)
		if err != nil {
			return nil, err
		}
		vars[name] = s
	}
	return vars, nil
}

// readYAMLFixture walks the node tree of a flat YAML mapping so every scalar
// keeps its source text.
func readYAMLFixture(data []byte) (MapEnv, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	vars := make(MapEnv)
	if len(doc.Content) == 0 {
		return vars, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrFixtureFormat)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		s, err := yamlFixtureValue(name, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		vars[name] = s
	}
	return vars, nil
}

func yamlFixtureValue(name string, node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return "", nil
		}
		return node.Value, nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, elem := range node.Content {
			if elem.Kind == yaml.AliasNode && elem.Alias != nil {
				elem = elem.Alias
			}
			if elem.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("%w: %q contains a nested value", ErrFixtureFormat, name)
			}
			s, err := yamlFixtureValue(name, elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ListSeparator), nil
	default:
		return "", fmt.Errorf("%w: %q is a table, only flat documents are supported", ErrFixtureFormat, name)
	}
}

// WriteEnvFile atomically writes vars to path in the format implied by its
// extension. Keys are written in sorted order.
func WriteEnvFile(path string, vars MapEnv) error {
	plain := make(map[string]string, len(vars))
	for k, v := range vars {
		plain[k] = v
	}

	var (
		data []byte
		err  error
	)
	switch detectFileFormat(path) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(plain)
		data = buf.Bytes()
	case "json":
		data, err = json.MarshalIndent(plain, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(plain)
	case "env":
		data = formatDotEnv(plain)
	default:
		return fmt.Errorf("unable to determine format for env file '%s'", path)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal env file '%s': %w", path, err)
	}

	return atomicWriteFile(path, data)
}

// Capture returns the variables from env that target's binding plan reads
// and that are currently set. target is a struct or struct pointer.
func Capture(env Lookuper, target any) (MapEnv, error) {
	fields, err := Fields(target)
	if err != nil {
		return nil, err
	}

	vars := make(MapEnv)
	for _, f := range fields {
		if v, ok := lookup(env, f.Variable); ok {
			vars[f.Variable] = v
		}
	}
	return vars, nil
}

// stringifyFixtureValue turns a decoded document value into a raw variable value.
func stringifyFixtureValue(name string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case map[string]any:
		return "", fmt.Errorf("%w: %q is a table, only flat documents are supported", ErrFixtureFormat, name)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			switch elem.(type) {
			case map[string]any, []any:
				return "", fmt.Errorf("%w: %q contains a nested value", ErrFixtureFormat, name)
			}
			s, err := stringifyFixtureValue(name, elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ListSeparator), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// parseDotEnv reads KEY=VALUE lines. Blank lines, # comments and an
// "export " prefix are allowed. Double-quoted values are unquoted with Go
// escaping rules, single-quoted values are taken literally.
func parseDotEnv(data []byte) (MapEnv, error) {
	vars := make(MapEnv)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: line %d is not KEY=VALUE", ErrFixtureFormat, lineNo)
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			switch {
			case value[0] == '"' && value[len(value)-1] == '"':
				unquoted, err := strconv.Unquote(value)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrFixtureFormat, lineNo, err)
				}
				value = unquoted
			case value[0] == '\'' && value[len(value)-1] == '\'':
				value = value[1 : len(value)-1]
			}
		}
		vars[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// formatDotEnv renders vars as sorted KEY=VALUE lines, quoting values that
// would not survive parseDotEnv verbatim.
func formatDotEnv(vars map[string]string) []byte {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := vars[k]
		if v != strings.TrimSpace(v) || strings.ContainsAny(v, "\"'#\n\r\\") {
			v = strconv.Quote(v)
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	base := filepath.Base(path)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return "env"
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".env":
		return "env"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	if looksLikeDotEnv(data) {
		return "env"
	}

	// JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML, YAML accepts nearly anything
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && len(yamlTest) > 0 {
		return "yaml"
	}

	return "env"
}

// looksLikeDotEnv reports whether every non-blank, non-comment line is an
// unspaced KEY=VALUE assignment, optionally prefixed with "export ".
func looksLikeDotEnv(data []byte) bool {
	assignments := 0
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		key, _, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		if !ok || !isVariableName(key) {
			return false
		}
		assignments++
	}
	return assignments > 0
}

// isVariableName matches [A-Za-z_][A-Za-z0-9_.]*
func isVariableName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
		case i > 0 && ((c >= '0' && c <= '9') || c == '.'):
		default:
			return false
		}
	}
	return true
}

// atomicWriteFile replaces path with a fixture through a temp file in the
// same directory. Fixtures may hold secrets, so the file is owner-only.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to stage env file '%s': %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict env file '%s': %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write env file '%s': %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync env file '%s': %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush env file '%s': %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace env file '%s': %w", path, err)
	}
	return nil
}
