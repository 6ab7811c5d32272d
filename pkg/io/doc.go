// Package io provides JSON import and export for justified pages.
//
// # Overview
//
// A [Document] pairs a [justify.Page] with the text it indexes and the
// settings that produced it, so a result can be inspected, rendered or
// cached without repeating the search.
//
// # JSON Format
//
//	{
//	  "font": {"name": "Raqq.ttf", "hash": "9f2c...", "upem": 2048},
//	  "goal": 46080,
//	  "text": "بسم الله ...",
//	  "paragraphs": [
//	    {
//	      "lines": [
//	        {
//	          "start": 0,
//	          "end": 57,
//	          "text": "بسم الله الرحمن الرحيم",
//	          "variations": [{"kind": "axis", "tag": "MSHQ", "value": 34.2, ...}],
//	          "kashidas": 2
//	        }
//	      ]
//	    }
//	  ]
//	}
//
// Offsets are bytes into "text", end exclusive. The per-line "text" field is
// written for readability and ignored on import.
//
// # Validation
//
// [ReadJSON] rejects documents whose lines fall outside the text, are empty,
// or overlap or go backwards, with an INVALID_FORMAT error.
package io
