package model

//go:generate go run github.com/dmarkham/enumer -type ResourceType -trimprefix ResourceType -transform lower -json -yaml -sql -output resource_type.gen.go

// ResourceType tells the decision engine how to interpret a resource name
type ResourceType int

const (
	ResourceTypeURL ResourceType = iota
	ResourceTypeMethod
	ResourceTypePointcut
)
