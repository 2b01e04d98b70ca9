// Package io provides JSON import and export of ledwall bundles.
//
// # Overview
//
// A bundle carries a module and processor catalog together with saved
// projects, so a setup can move between machines or be shared with a crew:
//
//	{
//	  "version": 1,
//	  "modules": {
//	    "arakur-p29": {"name": "Arakur P2.9", "pixelsW": 208, "pixelsH": 208,
//	                   "width": 64, "height": 64, "weight": 8.5, "power": 180}
//	  },
//	  "processors": {
//	    "vx600": {"brand": "NovaStar", "model": "VX600", "outputs": 6,
//	              "totalPixels": 3900000, "maxWidth": 10240, "maxHeight": 8192}
//	  },
//	  "projects": [
//	    {"id": "…", "name": "Main Stage", "config": {"module": "arakur-p29", …}}
//	  ]
//	}
//
// Catalog entries are keyed by ID; an "id" field inside an entry is ignored.
//
// # Legacy bundles
//
// Bundles without a version may carry a single "project" object holding
// name, groupIndexStart, wiringPattern and colorScheme. [ReadBundle] turns
// it into one project with default dimensions.
//
// # Importing
//
// [Apply] layers the bundle's catalog over an existing one (entries with the
// same ID are replaced, all others kept) and saves the projects into a
// [project.Store].
package io
