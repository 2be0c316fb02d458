package service

import "time"

const (
	// Значения по умолчанию для обработки розыгрышей
	MaxConcurrentFinalizations = 10               // Максимальное количество одновременно завершаемых розыгрышей
	ProcessingTimeout          = 2 * time.Minute  // Таймаут для завершения одного розыгрыша
	RetryDelay                 = 5 * time.Second  // Задержка перед повторной попыткой завершения
	RejectionNoticeTTL         = 10 * time.Second // Время жизни уведомления об отклонении заявки

	entryBufferSize = 64
)
