package config

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// ResultsCollectionKey returns the fixed key holding the append-only
// JSON array of persisted session summaries
func (r *StoreKeyStruct) ResultsCollectionKey() string {
	return "quiz:session_results"
}

var StoreKey = NewStoreKeyStruct()

type QueueKeyStruct struct {
	PersistResultsQueue string
}

var QueueKey = &QueueKeyStruct{
	PersistResultsQueue: "persist_results_queue",
}
