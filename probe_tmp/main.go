package main

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chemarena/arena/internal/config"
)

func main() {
	yamlContent := `
models:
  - name: Nameless Model
    provider: TestLab
    active: true
`
	f, _ := os.CreateTemp("", "cfg*.yaml")
	f.WriteString(yamlContent)
	f.Close()
	defer os.Remove(f.Name())

	k := koanf.New(".")
	if err := k.Load(file.Provider(f.Name()), yaml.Parser()); err != nil {
		fmt.Println("load err:", err)
		return
	}
	fmt.Printf("raw: %#v\n", k.Raw())
	fmt.Printf("models key exists: %v, value: %#v\n", k.Exists("models"), k.Get("models"))

	base := config.New()
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		fmt.Println("unmarshal err:", err)
		return
	}
	fmt.Printf("cfg.Models after unmarshal (%d entries):\n", len(cfg.Models))
	for i, m := range cfg.Models {
		fmt.Printf("  [%d] ID=%q Name=%q Provider=%q Active=%v\n", i, m.ID, m.Name, m.Provider, m.Active)
	}
}
