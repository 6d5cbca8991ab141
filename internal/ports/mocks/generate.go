//go:generate mockgen -source=../pending_order_store.go  -destination=./mock_pending_order_store.go  -package=mocks
//go:generate mockgen -source=../cache_metadata_store.go -destination=./mock_cache_metadata_store.go -package=mocks
//go:generate mockgen -source=../order_backend.go        -destination=./mock_order_backend.go        -package=mocks
//go:generate mockgen -source=../operator_prompt.go      -destination=./mock_operator_prompt.go      -package=mocks
//go:generate mockgen -source=../services.go             -destination=./mock_services.go             -package=mocks
//go:generate mockgen -source=../message_consumer.go     -destination=./mock_message_consumer.go     -package=mocks

package mocks
