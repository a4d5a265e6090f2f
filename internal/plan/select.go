package plan

import "github.com/thoreinstein/envseed/internal/provisioner"

// Entry identifies one task within a plan.
type Entry struct {
	Batch string
	Task  string
}

// String formats the entry as "batch/task".
func (e Entry) String() string {
	return e.Batch + "/" + e.Task
}

// Entries lists every task of batches in run order.
func Entries(batches []provisioner.Batch) []Entry {
	var entries []Entry
	for _, b := range batches {
		for _, t := range b.Tasks {
			entries = append(entries, Entry{Batch: b.Name, Task: t.Name()})
		}
	}
	return entries
}

// Select keeps only the chosen entries. Batch and task order are
// preserved and batches left empty are dropped.
func Select(batches []provisioner.Batch, chosen []Entry) []provisioner.Batch {
	keep := make(map[Entry]bool, len(chosen))
	for _, e := range chosen {
		keep[e] = true
	}

	var out []provisioner.Batch
	for _, b := range batches {
		filtered := provisioner.Batch{Name: b.Name}
		for _, t := range b.Tasks {
			if keep[Entry{Batch: b.Name, Task: t.Name()}] {
				filtered.Tasks = append(filtered.Tasks, t)
			}
		}
		if len(filtered.Tasks) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}
