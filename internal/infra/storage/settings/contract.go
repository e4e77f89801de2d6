package settings

import "github.com/m04kA/SMC-TableBookingService/pkg/dbmetrics"

// DBExecutor интерфейс для выполнения запросов (*sql.DB, *dbmetrics.DB, транзакция)
type DBExecutor = dbmetrics.DBExecutor
