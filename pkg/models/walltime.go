package models

import "fmt"

// WalltimeDuration is the per-step walltime request, split into the fields
// batch schedulers expect. It is derived once per run and shared by every cell.
type WalltimeDuration struct {
	Days    int64 `json:"Days"`
	Hours   int64 `json:"Hours"`
	Minutes int64 `json:"Minutes"`
	Seconds int64 `json:"Seconds"`
}

// TotalSeconds folds the fields back into a number of seconds.
func (w WalltimeDuration) TotalSeconds() int64 {
	return ((w.Days*24+w.Hours)*60+w.Minutes)*60 + w.Seconds
}

// MoabString renders the walltime as D:HH:MM:SS.
func (w WalltimeDuration) MoabString() string {
	return fmt.Sprintf("%d:%02d:%02d:%02d", w.Days, w.Hours, w.Minutes, w.Seconds)
}

// SlurmString renders the walltime as D-HH:MM:SS.
func (w WalltimeDuration) SlurmString() string {
	return fmt.Sprintf("%d-%02d:%02d:%02d", w.Days, w.Hours, w.Minutes, w.Seconds)
}

// PBSString renders the walltime as HH:MM:SS with days folded into hours.
func (w WalltimeDuration) PBSString() string {
	return fmt.Sprintf("%02d:%02d:%02d", w.Days*24+w.Hours, w.Minutes, w.Seconds)
}

func (w WalltimeDuration) String() string {
	return fmt.Sprintf("%dd%02dh%02dm%02ds", w.Days, w.Hours, w.Minutes, w.Seconds)
}
