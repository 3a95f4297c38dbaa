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

// Package services holds the application services behind the HTTP API: the
// reel history kept in BigQuery and the local working directories.
package services

// BigQuery statements over the reel history table. The %s placeholder is the
// fully qualified table name; values are bound as named query parameters.
const (
	QryListReels = "SELECT * FROM `%s` ORDER BY create_date DESC LIMIT @limit"

	QryFindReelById = "SELECT * FROM `%s` WHERE id = @id LIMIT 1"

	// QryReelStats counts reels, fallbacks and rendered seconds per style.
	QryReelStats = "SELECT style, COUNT(*) AS reels, COUNTIF(fallback) AS fallbacks, SUM(duration_seconds) AS seconds FROM `%s` GROUP BY style ORDER BY reels DESC"
)
