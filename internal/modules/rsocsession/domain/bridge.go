package domain

import (
	"encoding/json"
	"fmt"

	"rsoc/internal/platform/geometry"
)

// BridgeChannel is the single named script-bridge channel the injected
// scripts post to.
const BridgeChannel = "rsoc"

// TargetElementID names the in-page element the overlay is aligned
// against on screen1 and screen2.
const TargetElementID = "master-1"

// InvisibilityStyleID is the id of the injected style element, so
// re-injection stays idempotent and the sponsor view can strip it.
const InvisibilityStyleID = "rsoc-invisibility"

const elementRectType = "elementRect"

type bridgeMessage struct {
	Type   string   `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// ParseElementRect decodes a script-bridge payload. ok is false when the
// payload is not a well-formed elementRect message (such messages are
// ignored, per the bridge protocol). A nil rect with ok=true is the
// element-not-found sentinel.
func ParseElementRect(payload []byte) (rect *geometry.Rect, ok bool) {
	msg := bridgeMessage{}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, false
	}
	if msg.Type != elementRectType {
		return nil, false
	}
	if msg.Error != "" {
		return nil, true
	}
	if msg.X == nil || msg.Y == nil || msg.Width == nil || msg.Height == nil {
		return nil, false
	}
	return &geometry.Rect{X: *msg.X, Y: *msg.Y, Width: *msg.Width, Height: *msg.Height}, true
}

// ElementRectMessage renders the payload the content-side script posts
// for a located element. Surface adapters use it to answer rect queries.
func ElementRectMessage(rect geometry.Rect) []byte {
	raw, _ := json.Marshal(map[string]any{
		"type":   elementRectType,
		"x":      rect.X,
		"y":      rect.Y,
		"width":  rect.Width,
		"height": rect.Height,
	})
	return raw
}

// ElementNotFoundMessage is the error-sentinel payload.
func ElementNotFoundMessage() []byte {
	raw, _ := json.Marshal(map[string]any{
		"type":  elementRectType,
		"error": "not_found",
	})
	return raw
}

// InvisibilityScript hides all page content, disables text selection and
// the long-press/context menu, and is idempotent across re-injection.
func InvisibilityScript() string {
	return fmt.Sprintf(`(function(){
  var id=%q;
  if(!document.getElementById(id)){
    var s=document.createElement('style');
    s.id=id;
    s.textContent='html,body{opacity:0.01 !important;background:transparent !important;}'+
      '*{-webkit-user-select:none !important;user-select:none !important;-webkit-touch-callout:none !important;}';
    (document.head||document.documentElement).appendChild(s);
  }
  document.oncontextmenu=function(){return false;};
})();`, InvisibilityStyleID)
}

// RemoveInvisibilityScript restores visibility for the sponsor view.
func RemoveInvisibilityScript() string {
	return fmt.Sprintf(`(function(){
  var s=document.getElementById(%q);
  if(s&&s.parentNode){s.parentNode.removeChild(s);}
  document.oncontextmenu=null;
})();`, InvisibilityStyleID)
}

// ElementRectScript posts the bounding rect of the target element (or
// the not_found sentinel) to the bridge channel.
func ElementRectScript() string {
	return fmt.Sprintf(`(function(){
  var bridge=window.webkit&&window.webkit.messageHandlers&&window.webkit.messageHandlers.%s;
  var post=function(m){if(bridge){bridge.postMessage(JSON.stringify(m));}};
  var el=document.getElementById(%q);
  if(!el){post({type:%q,error:'not_found'});return;}
  var r=el.getBoundingClientRect();
  post({type:%q,x:r.x,y:r.y,width:r.width,height:r.height});
})();`, BridgeChannel, TargetElementID, elementRectType, elementRectType)
}
