package bot

import (
	"log"
	"runtime/debug"
)

// initTasks pre-populates the task table from the first pages of the
// listing before steady-state polling begins. No notifications fire here:
// everything on these pages predates the bot run.
func (b *TelegramBot) initTasks(pages int) {
	log.Println("Start loading tasks...")

	for page := 1; page <= pages; page++ {
		snaps, err := b.client.Tasks(b.ctx, page)
		if err != nil {
			log.Printf("Error loading tasks page %d: %v", page, err)
			continue
		}
		b.store.Tasks.Reconcile(snaps)
	}

	log.Printf("Tasks successfully loaded! %d in table", b.store.Tasks.Len())
}

// pollTasks is one cycle of the sync engine: fetch the first listing page,
// reconcile it into the table, fan out the genuinely new tasks. A network
// failure is logged and retried on the next tick; a panic inside the cycle
// is recovered so one bad snapshot cannot take the loop down.
func (b *TelegramBot) pollTasks() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in poll cycle: %v\n%s", r, debug.Stack())
		}
	}()

	snaps, err := b.client.Tasks(b.ctx, 1)
	if err != nil {
		log.Printf("Error updating tasks: %v", err)
		return
	}

	for _, task := range b.store.Tasks.Reconcile(snaps) {
		log.Printf("NEW TASK # %s", task.String())
		b.eventNewTask(task)
	}
}
