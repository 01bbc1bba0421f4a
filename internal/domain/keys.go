package domain

// KeyPrefix namespaces every key and index localdex writes to the store.
const KeyPrefix = "localdex:"
