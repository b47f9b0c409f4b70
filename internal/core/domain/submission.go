package domain

// Receipt confirma uma entrega aceita pelo colaborador de mensageria.
type Receipt struct {
	DeliveryID string
	ChatID     int64
}

// Photo é um anexo binário já decodificado, com o MIME declarado pelo cliente.
type Photo struct {
	Data []byte
	MIME string
}
