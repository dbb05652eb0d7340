package models

type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
)

type ContentBlock struct {
	Type      BlockType
	Text      string
	MediaType string
	Data      []byte
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

func ImageBlock(mediaType string, data []byte) ContentBlock {
	return ContentBlock{Type: BlockImage, MediaType: mediaType, Data: data}
}

type InferenceMessage struct {
	Role   Role
	Blocks []ContentBlock
}

func NewUserMessage(blocks ...ContentBlock) InferenceMessage {
	return InferenceMessage{Role: RoleUser, Blocks: blocks}
}

func NewAssistantMessage(blocks ...ContentBlock) InferenceMessage {
	return InferenceMessage{Role: RoleAssistant, Blocks: blocks}
}
