package domain

// KeyPrefix prefixes every key this service writes to the store.
const KeyPrefix = "dishscout:"
