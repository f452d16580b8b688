package dialog

const (
	helpText = "Hi! This is a GPT bot.\n" +
		"/chat - talk with the text model\n" +
		"/image - generate images from a description\n" +
		"/clear - forget the current conversation"

	chatModeText  = "Chat mode is on. Just send your prompt."
	imageModeText = "Image mode is on. Send a description of the picture in your next message."
	modeErrorText = "Could not switch mode, please try again later."
	clearedText   = "Conversation history cleared."

	chatAckText   = "Generating a reply..."
	chatErrorText = "Sorry, I could not get a reply. Please try again."
	resetText     = "Conversation history was reset because the message limit was reached."

	imageAckText           = "Generating an image..."
	imageGenErrorText      = "Image generation failed, please try again."
	imageDownloadErrorText = "Could not download the image, please try again."
	imageStageErrorText    = "Could not prepare the image, please try again."
	imageSendErrorText     = "Could not send the image, please try again."
)
