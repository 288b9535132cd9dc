// services/scheduler.go
package services

import (
	"log"
	"time"

	"youth-health-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartPublishScheduler flips scheduled blogs and news to published once
// their publish_at passes. Returns the scheduler so main can shut it down.
func StartPublishScheduler(db *gorm.DB) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	// Every minute: publish due content
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			var blogs []models.Blog
			if err := db.Where("status = ? AND publish_at <= ?", "scheduled", now).
				Find(&blogs).Error; err != nil {
				log.Printf("[Scheduler] DB error fetching blogs: %v", err)
			} else {
				for _, b := range blogs {
					b.Status = "published"
					b.PublishAt = nil
					if err := db.Save(&b).Error; err != nil {
						log.Printf("[Scheduler] Failed to publish blog %s: %v", b.ID, err)
					} else {
						log.Printf("✅ Auto-published blog: %s", b.Title)
					}
				}
			}

			var items []models.News
			if err := db.Where("status = ? AND publish_at <= ?", "scheduled", now).
				Find(&items).Error; err != nil {
				log.Printf("[Scheduler] DB error fetching news: %v", err)
				return
			}
			for _, n := range items {
				n.Status = "published"
				n.PublishAt = nil
				if err := db.Save(&n).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish news %s: %v", n.ID, err)
				} else {
					log.Printf("✅ Auto-published news: %s", n.Title)
				}
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return sched, nil
}
