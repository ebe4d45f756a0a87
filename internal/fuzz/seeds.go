package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addSchemaSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.fy файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".fy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

// addSchemaSeeds закрывает углы грамматики, которых может не быть в
// testdata: все формы деклараций, атрибуты, комментарии, Unicode.
func addSchemaSeeds(f *testing.F) {
	seeds := []string{
		"",
		"bridge demo\n",
		"bridge demo\n\nstruct Point { x: Int32, y: Int32 }\n",
		"bridge demo\nstruct Marker\nstruct Empty {}\n",
		"bridge demo\nstruct Pair(Int32, Text)\n",
		"bridge demo\nenum Shape { Circle(Float64), Rect { w: Float64 }, Unknown, }\n",
		"bridge demo\nimport \"app/shared\" as shared\nimport \"app/core\"\n",
		"bridge demo\n@class\nextern type Counter\n",
		"bridge demo\n@client_name(\"NicePoint\")\nstruct Point { x: Int32 }\n",
		"bridge demo\n// line comment\n/* block\ncomment */\nstruct P { x: Int32 }\n",
		"bridge demo\nstruct Смещение { шаг: Int32 }\n",
		"bridge demo\nstruct T { pair: (Int32, Text), triple: (Int8, Int16, Int32) }\n",
		"bridge demo\nstruct S { s: \"not a type\" }\n",
		"bridge demo\nstruct P { x: Int32 } extra garbage here\n",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
