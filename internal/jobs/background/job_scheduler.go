package background

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// staleUploadAge is how long an uploaded CSV may sit in the staging directory
// before the cleanup job removes it. Successful ingests delete their file
// immediately; this catches uploads orphaned by crashes.
const staleUploadAge = 1 * time.Hour

// JobScheduler manages background maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	uploadDir string
}

// NewJobScheduler creates a scheduler with the upload cleanup job registered
func NewJobScheduler(uploadDir string) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{scheduler: scheduler, uploadDir: uploadDir}

	_, err = scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.cleanupStaleUploads),
		gocron.WithName("upload-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// cleanupStaleUploads removes staged CSV files older than staleUploadAge
func (js *JobScheduler) cleanupStaleUploads() {
	entries, err := os.ReadDir(js.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: upload cleanup cannot read %s: %v", js.uploadDir, err)
		}
		return
	}

	cutoff := time.Now().Add(-staleUploadAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(js.uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("WARN: failed to remove stale upload %s: %v", path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("Removed %d stale uploads from %s", removed, js.uploadDir)
	}
}
