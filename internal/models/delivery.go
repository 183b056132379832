package models

import "time"

// Delivery tracks the collection of an as-built document from a contractor
type Delivery struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentName       string     `gorm:"not null" json:"nomeDocumento"`
	DocumentType       string     `gorm:"not null" json:"tipoDocumento"` // relatorio, dwg, rvt
	Building           string     `gorm:"not null;index" json:"edificacao"`
	Discipline         string     `gorm:"not null" json:"disciplina"`
	ResponsibleCompany string     `gorm:"not null" json:"empresaResponsavel"`
	ExpectedAt         time.Time  `gorm:"not null;index" json:"dataPrevista"`
	ReceivedAt         *time.Time `json:"dataRecebimento"`
	Status             string     `gorm:"not null;default:'AGUARDANDO';index" json:"status"`
	Description        *string    `gorm:"type:text" json:"descricao"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Delivery) TableName() string {
	return "deliveries"
}

// Delivery status constants
const (
	DeliveryStatusAwaiting  = "AGUARDANDO" // Not received yet
	DeliveryStatusReceived  = "RECEBIDO"
	DeliveryStatusReviewing = "EM_REVISAO"
	DeliveryStatusValidated = "VALIDADO"
	DeliveryStatusRejected  = "REJEITADO"
)

// DeliveryStatuses lists every valid status in lifecycle order
var DeliveryStatuses = []string{
	DeliveryStatusAwaiting,
	DeliveryStatusReceived,
	DeliveryStatusReviewing,
	DeliveryStatusValidated,
	DeliveryStatusRejected,
}
