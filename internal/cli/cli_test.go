// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cli"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	test "github.com/jaycherian/gcp-go-reel-generator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configDir writes a base config pointing every directory under root.
func configDir(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "configs")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	toml := fmt.Sprintf(`[storage]
output_dir = %q
upload_dir = %q
temp_dir = %q
static_dir = ""
`, filepath.Join(root, "outputs"), filepath.Join(root, "uploads"), filepath.Join(root, "temp"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(toml), 0o644))
	return dir, root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStyles(t *testing.T) {
	out, err := run(t, "styles")
	require.NoError(t, err)
	assert.Contains(t, out, "Styles")
	assert.Contains(t, out, "finance: Finance - Stock market focused")

	out, err = run(t, "styles", "--json")
	require.NoError(t, err)
	var styles []model.StyleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &styles))
	assert.Len(t, styles, len(model.AllStyles()))
}

func TestTrends(t *testing.T) {
	dir, _ := configDir(t)
	out, err := run(t, "trends", "--config-dir", dir, "--runtime", "none", "--json", "--style", "tech")
	require.NoError(t, err)
	var data model.TrendingData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.NotEmpty(t, data.Hashtags)

	_, err = run(t, "trends", "--config-dir", dir, "--runtime", "none", "--style", "opera")
	assert.ErrorIs(t, err, model.ErrUnknownStyle)
}

func TestCleanup(t *testing.T) {
	dir, root := configDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads"), 0o755))
	test.WriteText(t, filepath.Join(root, "uploads"), "x.txt")

	out, err := run(t, "cleanup", "--config-dir", dir, "--runtime", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "1 files")
	assert.NoFileExists(t, filepath.Join(root, "uploads", "x.txt"))
}

func TestGenerate_Rejects(t *testing.T) {
	_, err := run(t, "generate")
	assert.Error(t, err)

	_, err = run(t, "generate", "-p", "tips", "-s", "opera")
	assert.ErrorIs(t, err, model.ErrUnknownStyle)
}
