package manifest

import (
	"strings"
	"text/template"
)

// installTmpl is the multi-document install manifest. The ClusterRole
// grants list/watch on every kind the store registry knows, plus the
// access-review create used by the cluster-wide capability probe.
var installTmpl = template.Must(template.New("install").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`apiVersion: v1
kind: Namespace
metadata:
  name: {{ .Namespace }}
---
apiVersion: v1
kind: ServiceAccount
metadata:
  name: watchmux
  namespace: {{ .Namespace }}
---
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRole
metadata:
  name: watchmux-reader
rules:
  - apiGroups: [""]
    resources: ["namespaces", "nodes", "persistentvolumes", "pods", "services", "configmaps", "secrets", "serviceaccounts", "persistentvolumeclaims", "events"]
    verbs: ["list", "watch"]
  - apiGroups: ["apps"]
    resources: ["deployments", "daemonsets", "statefulsets", "replicasets"]
    verbs: ["list", "watch"]
  - apiGroups: ["batch"]
    resources: ["jobs", "cronjobs"]
    verbs: ["list", "watch"]
  - apiGroups: ["networking.k8s.io"]
    resources: ["ingresses"]
    verbs: ["list", "watch"]
  - apiGroups: ["authorization.k8s.io"]
    resources: ["selfsubjectaccessreviews"]
    verbs: ["create"]
---
apiVersion: rbac.authorization.k8s.io/v1
kind: ClusterRoleBinding
metadata:
  name: watchmux-reader
roleRef:
  apiGroup: rbac.authorization.k8s.io
  kind: ClusterRole
  name: watchmux-reader
subjects:
  - kind: ServiceAccount
    name: watchmux
    namespace: {{ .Namespace }}
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: watchmux
  namespace: {{ .Namespace }}
  labels:
    app: watchmux
spec:
  replicas: 1
  selector:
    matchLabels:
      app: watchmux
  template:
    metadata:
      labels:
        app: watchmux
    spec:
      serviceAccountName: watchmux
      containers:
        - name: watchmux
          image: {{ .Image }}
          args:
            - watch
            - --server-url={{ .ServerURL }}
{{- if .Kinds }}
            - --kinds={{ join .Kinds "," }}
{{- end }}
          ports:
            - name: metrics
              containerPort: 9290
          readinessProbe:
            httpGet:
              path: /healthz
              port: metrics
`))
