// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

// Package engine runs the recommendation pipeline: sample candidate
// locations inside the selected districts, evaluate them under one scoring
// strategy, normalize the batch, and rank.
//
// Sampling is seeded, so a fixed seed yields an identical ranking for
// identical inputs. Evaluation fans out over a bounded worker pool and
// honors context cancellation between candidates.
package engine
