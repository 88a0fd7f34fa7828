package handlers

import (
	"net/http"

	"refstaff/internal/common"
	"refstaff/internal/models"
	"refstaff/internal/services"

	"github.com/labstack/echo/v4"
)

type OpenChatRequest struct {
	EmployeeID int64 `json:"employee_id"`
}

type OpenPeerChatRequest struct {
	PeerID int64 `json:"peer_id"`
}

type MarkReadRequest struct {
	ChatID int64 `json:"chat_id"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

func queryChatID(c echo.Context) (int64, error) {
	id, err := common.QueryInt64(c, "chat_id")
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

// readChatID takes chat_id from the body, falling back to the query string.
func readChatID(c echo.Context) (int64, error) {
	var req MarkReadRequest
	if err := bindJSON(c, &req); err != nil {
		return 0, err
	}
	if req.ChatID != 0 {
		return req.ChatID, nil
	}
	return queryChatID(c)
}

func (h *APIHandlers) listChats(c echo.Context, p *models.Principal) error {
	chats, err := h.chatService.ListChats(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *APIHandlers) openChat(c echo.Context, p *models.Principal) error {
	var req OpenChatRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	chat, err := h.chatService.OpenChat(c.Request().Context(), p, req.EmployeeID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *APIHandlers) listMessages(c echo.Context, p *models.Principal) error {
	chatID, err := queryChatID(c)
	if err != nil {
		return err
	}
	msgs, err := h.chatService.ListMessages(c.Request().Context(), p, chatID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *APIHandlers) sendMessage(c echo.Context, p *models.Principal) error {
	var req services.SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	msg, err := h.chatService.SendMessage(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *APIHandlers) markRead(c echo.Context, p *models.Principal) error {
	chatID, err := readChatID(c)
	if err != nil {
		return err
	}
	n, err := h.chatService.MarkRead(c.Request().Context(), p, chatID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MarkReadResponse{Updated: n})
}

func (h *APIHandlers) listPeerChats(c echo.Context, p *models.Principal) error {
	chats, err := h.chatService.ListPeerChats(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *APIHandlers) openPeerChat(c echo.Context, p *models.Principal) error {
	var req OpenPeerChatRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	chat, err := h.chatService.OpenPeerChat(c.Request().Context(), p, req.PeerID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *APIHandlers) listPeerMessages(c echo.Context, p *models.Principal) error {
	chatID, err := queryChatID(c)
	if err != nil {
		return err
	}
	msgs, err := h.chatService.ListPeerMessages(c.Request().Context(), p, chatID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *APIHandlers) sendPeerMessage(c echo.Context, p *models.Principal) error {
	var req services.SendMessageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	msg, err := h.chatService.SendPeerMessage(c.Request().Context(), p, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *APIHandlers) markPeerRead(c echo.Context, p *models.Principal) error {
	chatID, err := readChatID(c)
	if err != nil {
		return err
	}
	n, err := h.chatService.MarkPeerRead(c.Request().Context(), p, chatID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, MarkReadResponse{Updated: n})
}
