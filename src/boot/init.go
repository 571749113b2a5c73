package boot

import (
	"log"
	"time"
	"vbs/src/db"
	"vbs/src/lib"
	"vbs/src/models"
	"vbs/src/utils"
)

func InitDb() {
	conn := db.GetDb()
	err := conn.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Event{},
		&models.Booking{},
		&models.Invoice{},
		&models.TicketDefinition{},
		&models.Ticket{},
		&models.Approval{},
		&models.Registration{},
		&models.Purchase{},
		&models.Setting{},
		&models.Asset{},
	)
	if err != nil {
		log.Fatalf("Error running migrations: %s\n", err.Error())
	}
}

// InitScheduler starts the background jobs: the overdue-invoice sweep and the
// lifecycle flips for events already published before this process started.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("Error initializing scheduler: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob(utils.MarkOverdueInvoices, 15*time.Minute); err != nil {
		log.Printf("Error scheduling overdue invoice sweep: %s\n", err.Error())
	}
	go reschedulePublishedEvents()
	sched.Start()
}

func reschedulePublishedEvents() {
	conn := db.GetDb()
	var ids []uint
	if err := conn.
		Model(&models.Event{}).
		Where("status IN (?)", []string{"published", "ongoing"}).
		Where("ends_at > ?", time.Now().UTC()).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("Error loading events to reschedule: %s\n", err.Error())
		return
	}
	for _, id := range ids {
		utils.ScheduleEventLifecycle(id)
	}
}
