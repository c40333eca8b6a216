// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

// SEPARATOR splits multi valued option strings, e.g. "en-US<|||>ja-JP".
const SEPARATOR = "<|||>"

const (
	// SEGMENT_BREAK joins transcript turns when the full log is rendered.
	SEGMENT_BREAK = "\n\n--- SEGMENT BREAK ---\n\n"
)
