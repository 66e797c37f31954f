package prerender

import (
	"fmt"
	"path/filepath"
)

// Plan turns scanned diagram blocks into render tasks for one theme variant.
//
// Blocks whose metadata carries the skip flag produce no task; they are left
// for a different rendering path. Tasks are deduplicated by output filename,
// order-stable by first insertion: identical bodies landing on the same
// filename collapse into one task (the same diagram reached through several
// scan paths), while different bodies landing on the same filename are a
// genuine collision and fail with ErrTaskCollision rather than silently
// dropping one of them.
func Plan(blocks []DiagramBlock, variant ThemeVariant, out OutputConfig) ([]RenderTask, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}

	var tasks []RenderTask
	byFilename := make(map[string]int, len(blocks))

	for _, block := range blocks {
		meta, body := ExtractMetadata(block.Source)
		if meta.Skip {
			continue
		}

		identity := DeriveIdentity(body, meta.ID)
		filename := fmt.Sprintf("%s-%s%s.%s", identity, block.Locale, variant.Suffix, out.Format)

		if i, ok := byFilename[filename]; ok {
			if tasks[i].Body != body {
				return nil, fmt.Errorf("%w: %s claimed by both %s and %s",
					ErrTaskCollision, filename, tasks[i].SourceFile, block.File)
			}
			continue
		}

		byFilename[filename] = len(tasks)
		tasks = append(tasks, RenderTask{
			Identity:   identity,
			Locale:     block.Locale,
			Variant:    variant.Name,
			Filename:   filename,
			OutputPath: filepath.Join(out.Dir, filename),
			Body:       body,
			SourceFile: block.File,
		})
	}
	return tasks, nil
}
