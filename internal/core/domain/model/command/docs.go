// Package command contains the Command aggregate and its packages.
//
// A Command is a delivery order for one pharmacy. It references its tour by id
// and the tour never references the command back; membership is resolved with
// repository queries. Packages belong to exactly one command and carry their
// own status pointer.
//
// Status pointers only move through ApplyEvent, which the history ledger calls
// right after appending the event:
//
//	ev, _ := history.NewEvent(status.KindCommand, cmd.ID().String(), status.CommandInTransit, &profile, now)
//	_ = historyRepo.Append(ctx, ev)
//	_ = cmd.ApplyEvent(ev)
package command
