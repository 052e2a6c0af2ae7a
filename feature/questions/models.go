package questions

// Question is one row of the question bank table (side A). The answer key
// lives in the Key column; response columns carry the candidate answers.
type Question struct {
	QuestionID string `gorm:"column:QuestionId;primaryKey"`
	Question   string `gorm:"column:Question"`
	ResponseA  string `gorm:"column:ResponseA"`
	ResponseB  string `gorm:"column:ResponseB"`
	ResponseC  string `gorm:"column:ResponseC"`
	ResponseD  string `gorm:"column:ResponseD"`
	ResponseE  string `gorm:"column:ResponseE"`
	ResponseF  string `gorm:"column:ResponseF"`
	Key        string `gorm:"column:Key"`
	Type       string `gorm:"column:Type"`
	Status     string `gorm:"column:Status"`
	Topic      string `gorm:"column:Topic"`
}

// TableName maps the model to the questions table.
func (Question) TableName() string {
	return "questions"
}

// ModelResult is one row of the evaluated answers table (side B).
type ModelResult struct {
	QuestionID    string `gorm:"column:QuestionId;primaryKey"`
	CorrectOption string `gorm:"column:CorrectOption"`
}

// TableName maps the model to the model results table.
func (ModelResult) TableName() string {
	return "model_results"
}
