package common

// HttpResponse 统一HTTP响应结构
type HttpResponse struct {
	Code    int         `json:"code"`    // 响应码
	Message string      `json:"message"` // 响应消息
	Data    interface{} `json:"data"`    // 响应数据
}

// NewSuccessResponse 成功响应
func NewSuccessResponse(data interface{}) *HttpResponse {
	return &HttpResponse{
		Code:    200,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 错误响应
func NewErrorResponse(code int, message string) *HttpResponse {
	return &HttpResponse{
		Code:    code,
		Message: message,
	}
}
