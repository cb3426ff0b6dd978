package configs

import (
	"embed"
)

// DefaultFile 為內建預設設定檔名
const DefaultFile string = "default.yaml"

// FS provides embedded default config YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS

// Default 回傳內建預設設定內容
func Default() []byte {
	bs, err := FS.ReadFile(DefaultFile)
	if err != nil {
		panic("configs: embedded " + DefaultFile + " missing")
	}
	return bs
}
