package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// AgreementRender 定義輸出行為
type AgreementRender interface {
	Write(w io.Writer, r *AgreementReport) error
}

// Json渲染
type JsonAgreementRender struct{}

func (jr *JsonAgreementRender) Write(w io.Writer, r *AgreementReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLAgreementRender struct{}

func (yr *YAMLAgreementRender) Write(w io.Writer, r *AgreementReport) error {
	// 只有「最內層的一維陣列」才輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// 表格渲染
type TableAgreementRender struct{}

func (tr *TableAgreementRender) Write(w io.Writer, r *AgreementReport) error {
	_, err := io.WriteString(w, r.Table())
	return err
}

// RenderOf 依名稱回傳渲染器，未知名稱回傳 nil。
func RenderOf(name string) AgreementRender {
	switch name {
	case "json":
		return &JsonAgreementRender{}
	case "yaml", "yml":
		return &YAMLAgreementRender{}
	case "table", "":
		return &TableAgreementRender{}
	default:
		return nil
	}
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 若該 sequence 內部「沒有子 sequence」，代表它是最內層的一維 => 用 flow style: [...]
	// - 若內部有子 sequence 或 mapping，保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
				break
			}
		}

		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		if !nested {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
