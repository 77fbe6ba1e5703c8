package dto

import "time"

type HookInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Events  []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type DispatchInput struct {
	Event    string
	Phase    string
	Duration int
	Count    int
	Minutes  int
	Error    string
	At       time.Time
}

type DispatchFailure struct {
	Hook  string
	Error string
}

type DispatchOutput struct {
	Delivered []string
	Failures  []DispatchFailure
}
