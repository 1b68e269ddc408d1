package hashsum

import (
	"context"
	"time"

	"renamer/internal/app/common"
	"renamer/internal/domain/model"
	"renamer/internal/infra/filesystem"
	"renamer/internal/infra/hashing"
)

type Options struct {
	Paths     []string
	Recursive bool
	Kinds     []model.HashKind
	Base64    bool
}

type FileDigests struct {
	Path    string            `json:"path"`
	Digests map[string]string `json:"digests,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type Service struct{}

func NewService() Service { return Service{} }

var computeMany = hashing.ComputeMany

// Run computes every requested digest of every file. Each file's digests are
// computed concurrently; a failing file is reported and the next one is
// processed.
func (Service) Run(ctx context.Context, app *common.AppContext, opts Options) (model.CommandResult, error) {
	_ = app
	start := time.Now()
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []model.HashKind{model.HashMD5}
	}

	files, enumErr := filesystem.Enumerate(opts.Paths, filesystem.Options{Recursive: opts.Recursive})
	errCount := 0
	if enumErr != nil {
		errCount++
	}

	out := make([]FileDigests, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return model.CommandResult{}, err
		}
		fd := FileDigests{Path: f}
		digests, err := computeMany(ctx, f, kinds)
		if err != nil {
			fd.Error = err.Error()
			errCount++
			out = append(out, fd)
			continue
		}
		fd.Digests = make(map[string]string, len(digests))
		for _, d := range digests {
			if opts.Base64 {
				fd.Digests[string(d.Kind)] = d.Base64()
			} else {
				fd.Digests[string(d.Kind)] = d.Hex()
			}
		}
		out = append(out, fd)
	}

	return model.CommandResult{
		SchemaVersion: "1.0",
		Command:       "hash",
		Timestamp:     time.Now().UTC(),
		DurationMS:    time.Since(start).Milliseconds(),
		Summary: model.Summary{
			ItemsTotal: len(out),
			Errors:     errCount,
		},
		Digests: out,
	}, nil
}
