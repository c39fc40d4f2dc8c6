package main

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.afab.re/epdimg"
)

// convertAll converts independent jobs concurrently.
// The first failure stops jobs that haven't started yet.
func convertAll(jobs []epdimg.Job, opts epdimg.Options) error {
	if err := checkJobs(jobs); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.NumCPU())

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := epdimg.ConvertFile(job, opts); err != nil {
				return fmt.Errorf("image %d (%s): %w", i, job.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// checkJobs rejects jobs writing the same file, they would race each other.
func checkJobs(jobs []epdimg.Job) error {
	outputs := make(map[string]int)
	for i, job := range jobs {
		for _, path := range []string{job.Output, job.Preview} {
			if path == "" {
				continue
			}
			if j, ok := outputs[path]; ok {
				return fmt.Errorf("images %d and %d both write %s", j, i, path)
			}
			outputs[path] = i
		}
	}
	return nil
}
