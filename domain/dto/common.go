package dto

import "time"

type HealthResponse struct {
	Status  string      `json:"status"`
	Service string      `json:"service"`
	Store   string      `json:"store"`
	Jobs    []JobStatus `json:"jobs,omitempty"`
}

// JobStatus สถานะ housekeeping job หนึ่งตัว
type JobStatus struct {
	Name    string     `json:"name"`
	Cron    string     `json:"cron"`
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun *time.Time `json:"next_run,omitempty"`
}
