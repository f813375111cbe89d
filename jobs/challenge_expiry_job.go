// File: /jobs/challenge_expiry_job.go
package jobs

import (
	"fmt"
	"time"

	"deenconnect-api/services"
)

// ChallengeExpiryJob periodically sweeps open challenges past their end date
// into the expired state. The lazy per-read expiry check covers challenges
// that are actually looked at; the sweep catches the rest.
type ChallengeExpiryJob struct {
	challengeService *services.ChallengeService
	ticker           *time.Ticker
	done             chan bool
}

// NewChallengeExpiryJob creates a new expiry sweep job
func NewChallengeExpiryJob(challengeService *services.ChallengeService, interval time.Duration) *ChallengeExpiryJob {
	return &ChallengeExpiryJob{
		challengeService: challengeService,
		ticker:           time.NewTicker(interval),
		done:             make(chan bool),
	}
}

// Start begins the sweep job
func (j *ChallengeExpiryJob) Start() {
	fmt.Println("Challenge expiry job started")

	go func() {
		// Run immediately on start
		j.sweep()

		for {
			select {
			case <-j.ticker.C:
				j.sweep()
			case <-j.done:
				fmt.Println("Challenge expiry job stopped")
				return
			}
		}
	}()
}

// Stop stops the sweep job
func (j *ChallengeExpiryJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *ChallengeExpiryJob) sweep() {
	expired, err := j.challengeService.ExpireOverdue()
	if err != nil {
		fmt.Printf("Error during challenge expiry sweep: %v\n", err)
		return
	}

	if expired > 0 {
		fmt.Printf("Challenge expiry sweep: expired %d challenges\n", expired)
	}
}
