package materialize_slots

// Request модель запроса материализации слотов
type Request struct {
	BranchID int64
	Days     int // 0 = горизонт филиала или значение сервиса по умолчанию
}

// Response итог материализации
type Response struct {
	BranchID int64
	Days     int
	Created  int // Новые слоты
	Skipped  int // Слоты, которые уже существовали
	Failed   int // Слоты, которые не удалось создать
}
