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

// Package commands holds the stages of the reel generation pipeline. Each
// stage is a cor.Command reading its input from, and writing its output to,
// a well-known Context key listed below.
package commands

// Context keys shared by the pipeline stages.
const (
	ParamRequest     = "__REQUEST__"     // *model.ReelRequest
	ParamBackgrounds = "__BACKGROUNDS__" // []image.Image decoded from uploads
	ParamResearch    = "__RESEARCH__"    // *model.ResearchData
	ParamScript      = "__SCRIPT__"      // *model.Script
	ParamTrending    = "__TRENDING__"    // *model.TrendingData
	ParamAudio       = "__AUDIO__"       // *audio.Track
	ParamVideo       = "__VIDEO__"       // string, path of the encoded reel
	ParamResult      = "__RESULT__"      // *model.ReelResult
)
