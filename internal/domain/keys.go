package domain

// KeyPrefix is the default namespace for every key the service writes.
const KeyPrefix = "heptuple:"

// ModelVersion tags analysis results produced by the keyword scorer.
const ModelVersion = "1.0.0"
