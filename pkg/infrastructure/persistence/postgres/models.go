package postgres

// MessageModel é o model GORM para mensagens traduzidas mantidas em banco.
// (language, message_key) é único.
type MessageModel struct {
	ID         uint   `gorm:"primaryKey"`
	Language   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_messages_lang_key"`
	MessageKey string `gorm:"type:varchar(255);not null;uniqueIndex:idx_messages_lang_key"`
	Message    string `gorm:"type:text;not null"`
	UpdatedAt  int64  `gorm:"autoUpdateTime"`
}

func (MessageModel) TableName() string {
	return "messages"
}
